package gas

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DimitriosKantzas/gamma-dust/grid"
	"github.com/astrogo/fitsio"
	"github.com/maseology/mmio"
	"github.com/sirupsen/logrus"
)

// column names and HDU positions of the gas-density file
const (
	colCentres = "radial pixel centres"
	colEdges   = "radial pixel edges"
	hduCentres = 1
	hduEdges   = 2
	hduHI      = 3
	hduH2      = 4
)

// file order is NAXIS1 = sample (fastest), NAXIS2 = shell, NAXIS3 = pixel,
// i.e. a [pixel][shell][sample] cube; swapping axes 0 and 2 gives
// [sample][shell][pixel] and back.
var fileOrder = [3]int{2, 1, 0}

// Get loads the gas densities from a .fits file or a .gob cache.
func Get(fp string, log logrus.FieldLogger) (*Density, error) {
	tt := mmio.NewTimer()
	log.Infof(" loading: %s", fp)
	var (
		d   *Density
		err error
	)
	switch strings.ToLower(filepath.Ext(fp)) {
	case ".fits", ".fit", ".fts":
		d, err = LoadFITS(fp)
	case ".gob":
		d, err = LoadGob(fp)
	default:
		return nil, fmt.Errorf("gas.Get: unknown file type '%s'", fp)
	}
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	log.Infof(" gas densities loaded - %v", tt.Now())
	return d, nil
}

// LoadFITS reads the gas-density samples from a FITS file.
func LoadFITS(fp string) (*Density, error) {
	r, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadFITS failed: %w", err)
	}
	defer r.Close()
	d, err := ReadFITS(r)
	if err != nil {
		return nil, fmt.Errorf("LoadFITS %s failed: %w", fp, err)
	}
	return d, nil
}

// ReadFITS decodes the gas-density layout: HDU 1 and 2 are tables holding
// the shell centres and edges [kpc], HDU 3 and 4 the HI and H2 images.
func ReadFITS(r io.Reader) (*Density, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if n := len(f.HDUs()); n <= hduH2 {
		return nil, fmt.Errorf("expected %d HDUs, found %d", hduH2+1, n)
	}

	var d Density
	if d.Centres, err = readColumn(f.HDU(hduCentres), colCentres); err != nil {
		return nil, err
	}
	if d.Edges, err = readColumn(f.HDU(hduEdges), colEdges); err != nil {
		return nil, err
	}
	if d.HI, err = readCube(f.HDU(hduHI)); err != nil {
		return nil, fmt.Errorf("HI: %w", err)
	}
	if d.H2, err = readCube(f.HDU(hduH2)); err != nil {
		return nil, fmt.Errorf("H2: %w", err)
	}
	return &d, nil
}

func readColumn(hdu fitsio.HDU, name string) ([]float64, error) {
	tbl, ok := hdu.(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("HDU '%s' is not a table", hdu.Name())
	}
	if tbl.Index(name) < 0 {
		return nil, fmt.Errorf("table '%s' has no column '%s'", tbl.Name(), name)
	}
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	o := make([]float64, 0, tbl.NumRows())
	for rows.Next() {
		m := map[string]interface{}{name: nil}
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("column '%s': %w", name, err)
		}
		switch v := m[name].(type) {
		case float64:
			o = append(o, v)
		case float32:
			o = append(o, float64(v))
		default:
			return nil, fmt.Errorf("column '%s': unsupported type %T", name, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

func readCube(hdu fitsio.HDU) (*grid.Cube, error) {
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("HDU '%s' is not an image", hdu.Name())
	}
	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) != 3 {
		return nil, fmt.Errorf("expected 3 image axes, found %d", len(axes))
	}
	n := axes[0] * axes[1] * axes[2]

	var flat []float64
	switch hdr.Bitpix() {
	case -32:
		v := make([]float32, n)
		if err := img.Read(&v); err != nil {
			return nil, err
		}
		flat = make([]float64, n)
		for i, x := range v {
			flat[i] = float64(x)
		}
	case -64:
		flat = make([]float64, n)
		if err := img.Read(&flat); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", hdr.Bitpix())
	}

	c, err := grid.CubeFrom(axes[2], axes[1], axes[0], flat)
	if err != nil {
		return nil, err
	}
	return c.Transpose(fileOrder)
}

// WriteFITS encodes d in the layout read by ReadFITS, images as BITPIX -64.
func (d *Density) WriteFITS(w io.Writer) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("WriteFITS failed: %w", err)
	}
	defer f.Close()

	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		return fmt.Errorf("WriteFITS failed: %w", err)
	}
	if err := f.Write(phdu); err != nil {
		return fmt.Errorf("WriteFITS failed: %w", err)
	}
	if err := writeColumn(f, "CENTRES", colCentres, d.Centres); err != nil {
		return fmt.Errorf("WriteFITS failed: %w", err)
	}
	if err := writeColumn(f, "EDGES", colEdges, d.Edges); err != nil {
		return fmt.Errorf("WriteFITS failed: %w", err)
	}
	for _, c := range []*grid.Cube{d.HI, d.H2} {
		if err := writeCube(f, c); err != nil {
			return fmt.Errorf("WriteFITS failed: %w", err)
		}
	}
	return nil
}

func writeColumn(f *fitsio.File, hduName, name string, vals []float64) error {
	tbl, err := fitsio.NewTable(hduName, []fitsio.Column{{Name: name, Format: "D"}}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}
	defer tbl.Close()
	for i := range vals {
		if err := tbl.Write(&vals[i]); err != nil {
			return err
		}
	}
	return f.Write(tbl)
}

func writeCube(f *fitsio.File, c *grid.Cube) error {
	fc, err := c.Transpose(fileOrder)
	if err != nil {
		return err
	}
	img := fitsio.NewImage(-64, []int{c.N0, c.N1, c.N2})
	defer img.Close()
	if err := img.Write(fc.Data); err != nil {
		return err
	}
	return f.Write(img)
}
