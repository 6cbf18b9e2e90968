package firmctx

import "context"

// Capability exposes the actions the current session is allowed to perform.
// Role resolution lives outside this service; the interface keeps approval
// checks testable without a simulated session.
type Capability interface {
	CanApproveTimesheets(ctx context.Context) bool
	CanManageInvoices(ctx context.Context) bool
}

// AllowAll grants every capability. Used by the default wiring and tests;
// deployments with a real session layer provide their own implementation.
type AllowAll struct{}

func (AllowAll) CanApproveTimesheets(ctx context.Context) bool { return true }
func (AllowAll) CanManageInvoices(ctx context.Context) bool    { return true }

// Deny grants nothing. Useful for exercising rejection paths in tests.
type Deny struct{}

func (Deny) CanApproveTimesheets(ctx context.Context) bool { return false }
func (Deny) CanManageInvoices(ctx context.Context) bool    { return false }
