package service

import "errors"

var ErrInvalidImage = errors.New("image could not be read")
