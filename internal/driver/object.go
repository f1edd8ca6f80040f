package driver

import (
	"errors"
	"fmt"

	"brook/internal/diag"
	"brook/internal/ir"
	"brook/internal/irfile"
)

// LoadObject reads a container from disk and checks it.
// Codec failures are reported as diagnostics with an Obj* code.
func LoadObject(path string, rep diag.Reporter) (*ir.Object, error) {
	obj, err := irfile.ReadFile(path)
	if err == nil {
		if verr := ir.Validate(obj); verr != nil {
			err = fmt.Errorf("%w: %w", irfile.ErrMalformed, verr)
		}
	}
	if err != nil {
		if rep != nil {
			rep.Report(diag.Diagnostic{Severity: diag.SevError, Code: ObjectCode(err), Message: err.Error(), Path: path})
		}
		return nil, err
	}
	return obj, nil
}

// ObjectCode classifies a container error.
func ObjectCode(err error) diag.Code {
	switch {
	case errors.Is(err, irfile.ErrBadMagic):
		return diag.ObjBadMagic
	case errors.Is(err, irfile.ErrUnsupportedVersion):
		return diag.ObjUnsupportedVersion
	case errors.Is(err, irfile.ErrUnknownOpcode):
		return diag.ObjUnknownOpcode
	case errors.Is(err, irfile.ErrTruncated):
		return diag.ObjTruncated
	case errors.Is(err, irfile.ErrMalformed):
		return diag.ObjMalformed
	case err == nil:
		return diag.UnknownCode
	default:
		return diag.IOLoadFileError
	}
}
