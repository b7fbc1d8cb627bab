package main

// requireOwner is the single ownership check applied before every
// single-entity read or mutation. Keeping it in one place guarantees the
// same ErrForbidden semantics for budgets, expenses, and incomes. List
// queries are scoped by their WHERE clause instead and never call this.
func requireOwner(ownerID, actingID uint) error {
	if ownerID != actingID {
		return ErrForbidden
	}
	return nil
}
