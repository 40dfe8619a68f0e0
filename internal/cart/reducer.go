package cart

type ActionType string

const (
	ActionAdd            ActionType = "add"
	ActionRemove         ActionType = "remove"
	ActionUpdateQuantity ActionType = "update_quantity"
	ActionClear          ActionType = "clear"
	ActionHydrate        ActionType = "hydrate"
)

type Action struct {
	Type      ActionType
	Item      LineItem
	Items     []LineItem
	ProductID string
	Quantity  int
}

func Add(item LineItem) Action {
	return Action{Type: ActionAdd, Item: item}
}

func Remove(productID string) Action {
	return Action{Type: ActionRemove, ProductID: productID}
}

func UpdateQuantity(productID string, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, ProductID: productID, Quantity: quantity}
}

func Clear() Action {
	return Action{Type: ActionClear}
}

// Hydrate replaces the cart with previously persisted items.
func Hydrate(items []LineItem) Action {
	return Action{Type: ActionHydrate, Items: items}
}

// Reduce returns the state after applying a to s. It never modifies s, and
// the result always satisfies: every quantity >= 1, at most one line per
// product, totals equal to the sums over Items.
func Reduce(s State, a Action) State {
	var items []LineItem

	switch a.Type {
	case ActionAdd:
		items = addItem(CloneItems(s.Items), cloneItem(a.Item))
	case ActionRemove:
		items = removeItem(s.Items, a.ProductID)
	case ActionUpdateQuantity:
		if a.Quantity <= 0 {
			items = removeItem(s.Items, a.ProductID)
			break
		}
		items = CloneItems(s.Items)
		for i := range items {
			if items[i].ProductID == a.ProductID {
				items[i].Quantity = a.Quantity
			}
		}
	case ActionClear:
		items = []LineItem{}
	case ActionHydrate:
		// replay through add so stored duplicates merge and bad lines drop
		items = []LineItem{}
		for _, it := range CloneItems(a.Items) {
			items = addItem(items, it)
		}
	default:
		return s.Clone()
	}

	return newState(items)
}

func newState(items []LineItem) State {
	amount, count := Totals(items)
	return State{Items: items, TotalAmount: amount, TotalItemCount: count}
}

// addItem may modify items in place; callers pass a private copy.
func addItem(items []LineItem, item LineItem) []LineItem {
	if item.ProductID == "" || item.Quantity < 1 {
		return items
	}
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

func removeItem(items []LineItem, productID string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range CloneItems(items) {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}
