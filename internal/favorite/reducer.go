package favorite

type ActionType string

const (
	ActionAdd       ActionType = "add"
	ActionRemove    ActionType = "remove"
	ActionClear     ActionType = "clear"
	ActionSignedIn  ActionType = "signed_in"
	ActionSignedOut ActionType = "signed_out"
)

type Action struct {
	Type      ActionType
	Product   Product
	ProductID string
	UserID    string
	Items     []Product
}

func Add(p Product) Action {
	return Action{Type: ActionAdd, Product: p}
}

func Remove(productID string) Action {
	return Action{Type: ActionRemove, ProductID: productID}
}

func Clear() Action {
	return Action{Type: ActionClear}
}

// SignedIn replaces the whole state with userID's stored favorites.
func SignedIn(userID string, stored []Product) Action {
	return Action{Type: ActionSignedIn, UserID: userID, Items: stored}
}

func SignedOut() Action {
	return Action{Type: ActionSignedOut}
}

// Reduce returns the state after a. Set mutations while anonymous are
// no-ops; ids stay unique and insertion order is kept.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionAdd:
		if s.Anonymous() || a.Product.ProductID == "" || s.Contains(a.Product.ProductID) {
			return s.Clone()
		}
		next := s.Clone()
		next.Items = append(next.Items, cloneProduct(a.Product))
		return next
	case ActionRemove:
		next := State{UserID: s.UserID, Items: make([]Product, 0, len(s.Items))}
		for _, p := range s.Items {
			if p.ProductID != a.ProductID {
				next.Items = append(next.Items, cloneProduct(p))
			}
		}
		return next
	case ActionClear:
		return State{UserID: s.UserID, Items: []Product{}}
	case ActionSignedIn:
		if a.UserID == "" {
			return State{Items: []Product{}}
		}
		next := State{UserID: a.UserID, Items: []Product{}}
		for _, p := range a.Items {
			if p.ProductID != "" && !next.Contains(p.ProductID) {
				next.Items = append(next.Items, cloneProduct(p))
			}
		}
		return next
	case ActionSignedOut:
		return State{Items: []Product{}}
	default:
		return s.Clone()
	}
}
