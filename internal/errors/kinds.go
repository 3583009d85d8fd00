package errors

import (
	"errors"
	"io/fs"
)

// Kind classifies failures of the trait pipeline independently of the code.
type Kind string

// Failure kinds
const (
	KindNone         Kind = ""
	KindScan         Kind = "scan"
	KindWrite        Kind = "write"
	KindAssetLoad    Kind = "asset_load"
	KindEnvironment  Kind = "environment"
	KindPrecondition Kind = "precondition"
)

// Meta keys shared by the kind constructors
const (
	MetaKind     = "kind"
	MetaPath     = "path"
	MetaCategory = "category"
	MetaAsset    = "asset"
)

// ScanFailure describes a directory that could not be listed. The builder
// logs it and carries on with an empty result.
func ScanFailure(path string, cause error) *Error {
	code := CodeInternal
	if errors.Is(cause, fs.ErrNotExist) {
		code = CodeNotFound
	}
	err := &Error{Code: code, Message: "failed to scan " + path, Cause: cause}
	return err.WithMeta(MetaKind, KindScan).WithMeta(MetaPath, path)
}

// Write describes a catalog output file that could not be written.
func Write(path string, cause error) *Error {
	err := &Error{Code: CodeInternal, Message: "failed to write " + path, Cause: cause}
	return err.WithMeta(MetaKind, KindWrite).WithMeta(MetaPath, path)
}

// AssetLoad describes a layer that could not be loaded or decoded during compose.
// Missing files map to NotFound, anything else to DataLoss.
func AssetLoad(category, asset string, cause error) *Error {
	code := CodeDataLoss
	if errors.Is(cause, fs.ErrNotExist) {
		code = CodeNotFound
	}
	err := &Error{
		Code:    code,
		Message: "failed to load asset " + category + "/" + asset,
		Cause:   cause,
	}
	return err.WithMeta(MetaKind, KindAssetLoad).
		WithMeta(MetaCategory, category).
		WithMeta(MetaAsset, asset)
}

// Environment describes a missing rendering surface.
func Environment(message string) *Error {
	return New(CodeUnavailable, message).WithMeta(MetaKind, KindEnvironment)
}

// Precondition describes a caller error that was rejected without side effects.
func Precondition(message string) *Error {
	return New(CodeFailedPrecondition, message).WithMeta(MetaKind, KindPrecondition)
}

// Preconditionf is Precondition with a formatted message.
func Preconditionf(format string, args ...any) *Error {
	return Newf(CodeFailedPrecondition, format, args...).WithMeta(MetaKind, KindPrecondition)
}

// KindOf returns the failure kind recorded on err, or KindNone.
func KindOf(err error) Kind {
	meta := GetMeta(err)
	if meta == nil {
		return KindNone
	}
	switch k := meta[MetaKind].(type) {
	case Kind:
		return k
	case string:
		return Kind(k)
	default:
		return KindNone
	}
}

// IsAssetLoad reports whether err is an asset load failure
func IsAssetLoad(err error) bool {
	return KindOf(err) == KindAssetLoad
}

// IsWrite reports whether err is a catalog write failure
func IsWrite(err error) bool {
	return KindOf(err) == KindWrite
}

// IsEnvironment reports whether err is a rendering environment failure
func IsEnvironment(err error) bool {
	return KindOf(err) == KindEnvironment
}

// IsPrecondition reports whether err is a rejected caller precondition
func IsPrecondition(err error) bool {
	return KindOf(err) == KindPrecondition
}
