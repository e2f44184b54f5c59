package fulano

import (
	"fmt"

	"github.com/partite-ai/fulano/binding"
	"github.com/partite-ai/fulano/hostval"
)

// ROI is a region of interest: a sphere or an axis-aligned cylinder,
// described by a record of float fields.
type ROI interface {
	isROI()
	fmt.Stringer
}

type Sphere struct {
	X, Y, Z, R float64
}

func (Sphere) isROI() {}

func (r Sphere) String() string { return fmt.Sprintf("S %v %v %v %v", r.X, r.Y, r.Z, r.R) }

type CylinderZ struct {
	X, Y, R float64
}

func (CylinderZ) isROI() {}

func (r CylinderZ) String() string { return fmt.Sprintf("Z %v %v %v", r.X, r.Y, r.R) }

type CylinderY struct {
	X, Z, R float64
}

func (CylinderY) isROI() {}

func (r CylinderY) String() string { return fmt.Sprintf("Y %v %v %v", r.X, r.Z, r.R) }

type CylinderX struct {
	Y, Z, R float64
}

func (CylinderX) isROI() {}

func (r CylinderX) String() string { return fmt.Sprintf("X %v %v %v", r.Y, r.Z, r.R) }

// The cylinder cases differ only in field names, so each constructor
// demands an exact named-field match.
var roiUnion = binding.NewUnion(
	binding.UnionCase{Name: "Sphere", From: roiSphere},
	binding.UnionCase{Name: "CylinderZ", From: roiCylinderZ},
	binding.UnionCase{Name: "CylinderY", From: roiCylinderY},
	binding.UnionCase{Name: "CylinderX", From: roiCylinderX},
)

func roiSphere(v hostval.Value) (any, bool) {
	fields, ok := recordFloats(v, "x", "y", "z", "r")
	if !ok {
		return nil, false
	}
	return Sphere{X: fields[0], Y: fields[1], Z: fields[2], R: fields[3]}, true
}

func roiCylinderZ(v hostval.Value) (any, bool) {
	fields, ok := recordFloats(v, "x", "y", "r")
	if !ok {
		return nil, false
	}
	return CylinderZ{X: fields[0], Y: fields[1], R: fields[2]}, true
}

func roiCylinderY(v hostval.Value) (any, bool) {
	fields, ok := recordFloats(v, "x", "z", "r")
	if !ok {
		return nil, false
	}
	return CylinderY{X: fields[0], Z: fields[1], R: fields[2]}, true
}

func roiCylinderX(v hostval.Value) (any, bool) {
	fields, ok := recordFloats(v, "y", "z", "r")
	if !ok {
		return nil, false
	}
	return CylinderX{Y: fields[0], Z: fields[1], R: fields[2]}, true
}

func recordFloats(v hostval.Value, names ...string) ([]float64, bool) {
	rec, ok := v.(hostval.Record)
	if !ok || rec.Len() != len(names) {
		return nil, false
	}
	out := make([]float64, len(names))
	for i, name := range names {
		fv, ok := rec.Field(name)
		if !ok {
			return nil, false
		}
		f, ok := hostval.AsFloat(fv)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Roi narrows a host value into an ROI and renders it in the short
// single-letter format, e.g. "S 1 2 3 4".
func Roi(roi hostval.Value) (string, error) {
	v, err := roiUnion.Convert("roi", roi)
	if err != nil {
		return "", err
	}
	return v.(ROI).String(), nil
}
