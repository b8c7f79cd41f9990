package gammadust

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/sbinet/npyio/npz"
)

// npz keys
const (
	keyPhoton = "Eg"
	keyMap    = "gamma_map"
	keyShape  = "shape"
	keyRadius = "r"
	keyDens   = "f"
)

// SaveNPZ writes the photon energies [GeV] and the gamma-ray map (sample,
// photon energy, pixel) to a NumPy .npz archive; the map is stored flat
// alongside its shape.
func SaveNPZ(fp string, photonGeV []float64, m *grid.Cube) error {
	if m.N1 != len(photonGeV) {
		return shapeErr("SaveNPZ", "photon energies", m.N1, len(photonGeV))
	}
	w, err := npz.Create(fp)
	if err != nil {
		return fmt.Errorf("SaveNPZ failed: %w", err)
	}
	shp := []int64{int64(m.N0), int64(m.N1), int64(m.N2)}
	for _, kv := range []struct {
		k string
		v interface{}
	}{{keyPhoton, photonGeV}, {keyMap, m.Data}, {keyShape, shp}} {
		if err := w.Write(kv.k, kv.v); err != nil {
			w.Close()
			return fmt.Errorf("SaveNPZ %s failed: %w", kv.k, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("SaveNPZ failed: %w", err)
	}
	return nil
}

// LoadNPZ reads an archive written by SaveNPZ.
func LoadNPZ(fp string) ([]float64, *grid.Cube, error) {
	r, err := npz.Open(fp)
	if err != nil {
		return nil, nil, fmt.Errorf("LoadNPZ failed: %w", err)
	}
	defer r.Close()

	var (
		eg, data []float64
		shp      []int64
	)
	if err := r.Read(keyPhoton, &eg); err != nil {
		return nil, nil, fmt.Errorf("LoadNPZ %s failed: %w", keyPhoton, err)
	}
	if err := r.Read(keyMap, &data); err != nil {
		return nil, nil, fmt.Errorf("LoadNPZ %s failed: %w", keyMap, err)
	}
	if err := r.Read(keyShape, &shp); err != nil {
		return nil, nil, fmt.Errorf("LoadNPZ %s failed: %w", keyShape, err)
	}
	if len(shp) != 3 {
		return nil, nil, shapeErr("LoadNPZ", "shape", 3, len(shp))
	}
	m, err := grid.CubeFrom(int(shp[0]), int(shp[1]), int(shp[2]), data)
	if err != nil {
		return nil, nil, err
	}
	return eg, m, nil
}

// SaveProfileNPZ writes a radial source profile: radii [pc] and surface
// densities [pc⁻²].
func SaveProfileNPZ(fp string, r, f []float64) error {
	if len(f) != len(r) {
		return shapeErr("SaveProfileNPZ", "densities", len(r), len(f))
	}
	w, err := npz.Create(fp)
	if err != nil {
		return fmt.Errorf("SaveProfileNPZ failed: %w", err)
	}
	if err := w.Write(keyRadius, r); err != nil {
		w.Close()
		return fmt.Errorf("SaveProfileNPZ %s failed: %w", keyRadius, err)
	}
	if err := w.Write(keyDens, f); err != nil {
		w.Close()
		return fmt.Errorf("SaveProfileNPZ %s failed: %w", keyDens, err)
	}
	return w.Close()
}

// LoadProfileNPZ reads a profile written by SaveProfileNPZ.
func LoadProfileNPZ(fp string) (r, f []float64, err error) {
	rd, err := npz.Open(fp)
	if err != nil {
		return nil, nil, fmt.Errorf("LoadProfileNPZ failed: %w", err)
	}
	defer rd.Close()
	if err := rd.Read(keyRadius, &r); err != nil {
		return nil, nil, fmt.Errorf("LoadProfileNPZ %s failed: %w", keyRadius, err)
	}
	if err := rd.Read(keyDens, &f); err != nil {
		return nil, nil, fmt.Errorf("LoadProfileNPZ %s failed: %w", keyDens, err)
	}
	if len(f) != len(r) {
		return nil, nil, shapeErr("LoadProfileNPZ", "densities", len(r), len(f))
	}
	return r, f, nil
}

// SaveBinary dumps f as little-endian float32.
func SaveBinary(fp string, f []float64) error {
	return writeFloats(fp, f)
}

func writeFloats(fp string, f []float64) error {
	f32 := func() []float32 {
		o := make([]float32, len(f))
		for i, v := range f {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	return nil
}
