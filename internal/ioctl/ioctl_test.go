//go:build linux

package ioctl

import (
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	c := Encode(Read, 8, 0x4600)
	assert.Equal(t, Command(0x80084600), c)
	assert.Equal(t, "ioctl read  (8 bytes) 0x4600", c.String())
	assert.Equal(t, "FBIOGET_FSCREENINFO", FBIOGetFScreenInfo.String())
}

func TestDoNotATTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "ioctl")
	require.NoError(t, err)
	defer f.Close()

	var buf [64]byte
	err = Do(f.Fd(), FBIOGetFScreenInfo, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL), err.Error())
}
