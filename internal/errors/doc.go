// Package errors provides the structured error type used across cryptea.
//
// Every error carries a Code, a user facing Message, an optional Cause and a
// Meta map. Codes map onto gRPC status codes and HTTP status codes so the
// transport layers can render them without inspecting messages.
//
// # Basic Usage
//
//	err := errors.NotFound("session not found").WithMeta("session_id", id)
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load session")
//	}
//
// # Domain Kinds
//
// The trait pipeline distinguishes a handful of failure kinds on top of the
// codes. They are recorded in Meta under "kind" and survive wrapping:
//
//	errors.Write(path, cause)                 // catalog output could not be written
//	errors.AssetLoad(category, asset, cause)  // compose could not load a layer
//	errors.Environment("canvas too large")    // no rendering surface
//	errors.Precondition("asset not in category") // caller error, nothing mutated
//
//	if errors.KindOf(err) == errors.KindAssetLoad { ... }
//
// Scan failures are logged by the builder and never returned; ScanFailure
// exists so the log line and tests share one shape.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("collection", cfg.Collection, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
