// Package errors provides structured errors for the bounty quest module.
//
// Errors carry a Code, a message, an optional cause and metadata. Codes map
// onto the module's failure taxonomy:
//   - NotFound: a data file or save entry refers to an entity the host cannot find
//   - FailedPrecondition: the host runtime version is not recognized (fatal)
//   - Unavailable: the host did not fill a quest alias within the retry budget
//   - DataLoss: a save container record could not be written or read
//   - AlreadyExists: a duplicate region tracker
//
// # Basic Usage
//
//	err := errors.NotFoundf("location %08X not found in %s", id, file)
//	err = errors.Wrap(err, "failed to parse quest")
//
// Adding metadata:
//
//	err := errors.Unavailablef("alias not filled").
//	    WithMeta("quest", def.Name).
//	    WithMeta("attempts", n)
//
// Checking:
//
//	if errors.IsNotFound(err) {
//	    slog.Warn("dropping entry", "error", err)
//	}
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Host == nil {
//	    vb.RequiredField("Host")
//	}
//	return vb.Build()
//
// Nothing in this package is allowed to cross the host boundary: entry points
// invoked by the host log the error and return normally.
package errors
