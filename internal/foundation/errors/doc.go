// Package errors provides the classified error primitives used across docnav.
//
// A ClassifiedError carries a category, a severity, a retry hint and structured context.
// Errors are created through the fluent ErrorBuilder:
//
//	err := errors.NewError(errors.CategoryNavigation, "sidebar entry has no slug").
//		WithContext("path", "Guides > 2").
//		Fatal().
//		Build()
//
// The CLI adapter maps categories onto process exit codes.
package errors
