package payment

import (
	"strconv"
	"strings"
)

const (
	MethodCOD          = "cod"
	MethodBankTransfer = "bank_transfer"
	MethodWallet       = "wallet"
)

var InstructionMap = map[string][]string{
	MethodCOD: {
		"Đơn hàng sẽ được giao đến địa chỉ của bạn",
		"Chuẩn bị {{amount}} tiền mặt khi nhận hàng",
		"Thanh toán trực tiếp cho nhân viên giao hàng",
	},
	MethodBankTransfer: {
		"Chuyển khoản {{amount}} vào tài khoản của cửa hàng",
		"Ghi nội dung chuyển khoản: {{reference}}",
		"Đơn hàng được xử lý sau khi nhận được thanh toán",
	},
	MethodWallet: {
		"Mở ứng dụng ví điện tử và xác nhận thanh toán {{amount}}",
		"Mã giao dịch: {{reference}}",
	},
}

func GetInstructions(method string) []string {
	if steps, ok := InstructionMap[method]; ok {
		return steps
	}

	return []string{
		"Làm theo hướng dẫn thanh toán được hiển thị",
	}
}

type InstructionVars map[string]string

func InjectVariables(
	steps []string,
	vars InstructionVars,
) []string {
	result := make([]string, 0, len(steps))

	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(
				updated,
				"{{"+key+"}}",
				value,
			)
		}
		result = append(result, updated)
	}

	return result
}

// FormatAmount renders a VND amount as "1.250.000đ".
func FormatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteString("đ")
	return b.String()
}
