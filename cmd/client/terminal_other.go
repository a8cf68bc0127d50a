//go:build !linux

package main

import "errors"

func setRawMode(int) (func() error, error) {
	return nil, errors.New("raw terminal input is only supported on linux")
}
