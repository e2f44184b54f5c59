// Package fom computes figures of merit over voxelized images. The one
// implemented here is the contrast recovery coefficient: how far a region's
// mean activity deviates from the background, as an integer percentage. A
// perfectly uniform image recovers no contrast anywhere, so every region
// reports zero.
package fom

import (
	"fmt"
	"math"
)

// FOV is a field of view: a physical extent in mm split into a voxel grid.
type FOV struct {
	Size   [3]float64
	Voxels [3]int
}

func NewFOV(size [3]float64, voxels [3]int) (FOV, error) {
	for i := range voxels {
		if voxels[i] <= 0 {
			return FOV{}, fmt.Errorf("invalid voxel counts %v", voxels)
		}
		if size[i] <= 0 {
			return FOV{}, fmt.Errorf("invalid field of view size %v", size)
		}
	}
	return FOV{Size: size, Voxels: voxels}, nil
}

// VoxelSize reports the physical extent of one voxel along each axis.
func (f FOV) VoxelSize() [3]float64 {
	var vs [3]float64
	for i := range vs {
		vs[i] = f.Size[i] / float64(f.Voxels[i])
	}
	return vs
}

func (f FOV) voxelCount() int {
	return f.Voxels[0] * f.Voxels[1] * f.Voxels[2]
}

// Image is a dense voxel grid over a field of view, in x-major, z-slowest
// order.
type Image struct {
	fov  FOV
	data []float64
}

func NewImage(fov FOV, data []float64) (*Image, error) {
	if want := fov.voxelCount(); len(data) != want {
		return nil, fmt.Errorf("image data has %d voxels, want %d for %v", len(data), want, fov.Voxels)
	}
	return &Image{fov: fov, data: data}, nil
}

func (img *Image) FOV() FOV { return img.fov }

// Mean reports the mean activity over the whole image.
func (img *Image) Mean() float64 {
	sum := 0.0
	for _, v := range img.data {
		sum += v
	}
	return sum / float64(len(img.data))
}

// SlabMeans partitions the image into n equal slabs along z and reports the
// mean activity per slab. The z extent must divide evenly.
func (img *Image) SlabMeans(n int) ([]float64, error) {
	if n <= 0 || img.fov.Voxels[2]%n != 0 {
		return nil, fmt.Errorf("cannot split %d z planes into %d slabs", img.fov.Voxels[2], n)
	}
	slabSize := len(img.data) / n
	means := make([]float64, n)
	for i := range means {
		sum := 0.0
		for _, v := range img.data[i*slabSize : (i+1)*slabSize] {
			sum += v
		}
		means[i] = sum / float64(slabSize)
	}
	return means, nil
}

// CRCs reports the contrast recovery coefficient of each of n z-slabs,
// taking the whole-image mean as the background activity:
//
//	crc = round(100 * (slabMean - bg) / bg)
//
// A zero background yields zero coefficients rather than a division blowup.
func (img *Image) CRCs(n int) ([]int64, error) {
	means, err := img.SlabMeans(n)
	if err != nil {
		return nil, err
	}
	bg := img.Mean()
	crcs := make([]int64, n)
	for i, m := range means {
		crcs[i] = contrastRecovery(m, bg)
	}
	return crcs, nil
}

func contrastRecovery(measured, background float64) int64 {
	if background == 0 {
		return 0
	}
	return int64(math.Round(100 * (measured - background) / background))
}
