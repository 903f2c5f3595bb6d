// Package proration computes the credits and charges owed when a plan is
// changed or cancelled part way through a billing cycle.
package proration

// Calculator performs proration calculations.
// It's kept separate from the services to allow different calculation strategies or easier testing.
type Calculator interface {
	Calculate(params ProrationParams) (*ProrationResult, error)
}
