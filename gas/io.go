package gas

import (
	"encoding/gob"
	"fmt"
	"os"
)

func (d *Density) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" gas.SaveGob %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(d); err != nil {
		return fmt.Errorf(" gas.SaveGob %v", err)
	}
	return nil
}

func LoadGob(fp string) (*Density, error) {
	var d Density
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&d); err != nil {
		return nil, fmt.Errorf(" gas.LoadGob %v", err)
	}
	return &d, nil
}
