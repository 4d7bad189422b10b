package io

import (
	"errors"

	"github.com/ezrec/regmach/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrTapeMissing = errors.New(f("tape has no output"))
)
