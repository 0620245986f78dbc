/*
Copyright 2017-2020 Environmental Incentives, LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cohqt

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// surfaceGob is the on-disk form of a Surface. The spatial reference is
// not persisted; saved layers are assumed to be in the program's standard
// projection.
type surfaceGob struct {
	Name     string
	Nx, Ny   int
	Dx       float64
	X0, Y0   float64
	Elements []float64
}

// Save writes the surface to w in gob format.
func (s *Surface) Save(w io.Writer) error {
	e := gob.NewEncoder(w)
	sg := surfaceGob{
		Name: s.Ctx.Name,
		Nx:   s.Ctx.Nx, Ny: s.Ctx.Ny,
		Dx: s.Ctx.Dx,
		X0: s.Ctx.X0, Y0: s.Ctx.Y0,
		Elements: s.Data.Elements,
	}
	if err := e.Encode(sg); err != nil {
		return fmt.Errorf("cohqt.Surface.Save: %v", err)
	}
	return nil
}

// Load reads a previously Saved surface from r. If ctx is non-nil the
// loaded surface must align with it; the loaded surface then shares ctx so
// that all layers of a run compare alignment by identity of their grid
// parameters.
func Load(r io.Reader, ctx *Context) (*Surface, error) {
	dec := gob.NewDecoder(r)
	var sg surfaceGob
	if err := dec.Decode(&sg); err != nil {
		return nil, fmt.Errorf("cohqt.Load: %v", err)
	}
	loaded := &Context{Name: sg.Name, Nx: sg.Nx, Ny: sg.Ny, Dx: sg.Dx, X0: sg.X0, Y0: sg.Y0}
	if ctx != nil {
		if !ctx.aligned(loaded) {
			return nil, fmt.Errorf("cohqt.Load: layer %q does not align with the "+
				"run's snap grid: %dx%d cell %g at (%g,%g) vs %dx%d cell %g at (%g,%g)",
				sg.Name, sg.Nx, sg.Ny, sg.Dx, sg.X0, sg.Y0,
				ctx.Nx, ctx.Ny, ctx.Dx, ctx.X0, ctx.Y0)
		}
		loaded = ctx
	}
	s := NewSurface(loaded)
	copy(s.Data.Elements, sg.Elements)
	return s, nil
}

// LoadFile reads a previously Saved surface from the named file.
func LoadFile(filename string, ctx *Context) (*Surface, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cohqt.LoadFile: %v", err)
	}
	defer f.Close()
	return Load(f, ctx)
}

// SaveFile writes the surface to the named file, creating or truncating it.
func (s *Surface) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cohqt.Surface.SaveFile: %v", err)
	}
	defer f.Close()
	return s.Save(f)
}
