package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/matrix/internal/ioctl"
)

// Devices is the glob matching the framebuffer device nodes.
var Devices = "/dev/fb*"

// Find opens the Sense HAT framebuffer.
func Find() (*Device, error) {
	return FindID(SenseHAT)
}

// FindID opens the first framebuffer reporting the identification string id.
func FindID(id string) (*Device, error) {
	names, err := filepath.Glob(Devices)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	for _, name := range names {
		info, err := readFixInfo(name)
		if err != nil {
			log.Debug().Err(err).Str("device", name).Msg("framebuffer: skipped")
			continue
		}
		if info.name() == id {
			return Open(name)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

func readFixInfo(name string) (*fixScreenInfo, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info := new(fixScreenInfo)
	if err = ioctl.Do(f.Fd(), ioctl.FBIOGetFScreenInfo, info); err != nil {
		return nil, err
	}
	return info, nil
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x].
func Open(name string) (*Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	fd := f.Fd()
	var info fixScreenInfo
	if err = ioctl.Do(fd, ioctl.FBIOGetFScreenInfo, &info); err != nil {
		_ = f.Close()
		return nil, err
	}

	// Request virtual screen info.
	var vinfo varScreenInfo
	if err = ioctl.Do(fd, ioctl.FBIOGetVScreenInfo, &vinfo); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = checkColorModel(&vinfo); err != nil {
		_ = f.Close()
		return nil, err
	}

	stride := int(info.LineLength)
	if stride == 0 {
		stride = int(vinfo.Xres) * 2
	}
	size := stride * int(vinfo.Yres)
	if int(info.SmemLen) < size {
		_ = f.Close()
		return nil, errors.New("framebuffer: pixel memory smaller than the screen")
	}

	// Map pixel buffer.
	pix, err := syscall.Mmap(int(fd), 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	log.Debug().
		Str("device", name).
		Str("id", info.name()).
		Uint32("xres", vinfo.Xres).
		Uint32("yres", vinfo.Yres).
		Int("stride", stride).
		Msg("framebuffer: opened")

	return newDevice(name, info.name(), pix, int(vinfo.Xres), int(vinfo.Yres), stride, binary.LittleEndian, func() error {
		if err := syscall.Munmap(pix); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}), nil
}
