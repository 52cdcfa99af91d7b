// Package romfile maps cartridge images from disk and keeps battery saves
// next to them.
package romfile

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
)

// Image is a read-only mapping of a ROM file.
type Image struct {
	Path string
	f    *os.File
	m    mmap.MMap
}

// Open maps path read-only. Empty files cannot be mapped and are read
// into memory instead.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() == 0 {
		f.Close()
		return &Image{Path: path}, nil
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return &Image{Path: path, f: f, m: m}, nil
}

// Bytes returns the mapped contents. They stay valid until Close.
func (i *Image) Bytes() []byte { return i.m }

func (i *Image) Close() error {
	var err error
	if i.m != nil {
		err = i.m.Unmap()
		i.m = nil
	}
	if i.f != nil {
		if cerr := i.f.Close(); err == nil {
			err = cerr
		}
		i.f = nil
	}
	return err
}

// Read copies a ROM file into memory through a temporary mapping.
func Read(path string) ([]byte, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer img.Close()
	return append([]byte(nil), img.Bytes()...), nil
}

func fileNameWithoutExtension(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// SavePath is the battery save file that belongs to a ROM: same directory,
// same name, .sav extension.
func SavePath(romPath string) string {
	dir := filepath.Dir(filepath.Clean(romPath))
	return filepath.Join(dir, fileNameWithoutExtension(romPath)+".sav")
}

// StatePath is the snapshot file for slot n of a ROM.
func StatePath(romPath string, slot int) string {
	dir := filepath.Dir(filepath.Clean(romPath))
	return filepath.Join(dir, fmt.Sprintf("%s.state%d", fileNameWithoutExtension(romPath), slot))
}

// LoadSave reads a battery save. A missing file is not an error: ok is
// false and data nil.
func LoadSave(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	log.Printf("loaded save RAM: %s (%d bytes)", path, len(data))
	return data, true, nil
}

// WriteSave replaces path atomically so a crash never leaves half a save.
func WriteSave(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}
