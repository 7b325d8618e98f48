package ports

// Identity is the authenticated caller capability passed explicitly into every
// core operation. The transport layer builds it from verified token claims;
// core code never reads caller identity from ambient state.
type Identity struct {
	UserID string
	Role   string
}
