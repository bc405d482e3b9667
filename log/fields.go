package log

import (
	"time"

	"go.uber.org/zap"
)

var (
	Skip     = zap.Skip
	Binary   = zap.Binary
	Bool     = zap.Bool
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Int32    = zap.Int32
	Int64    = zap.Int64
	Ints     = zap.Ints
	Uint     = zap.Uint
	Uint32   = zap.Uint32
	Float    = zap.Float64
	Float32  = zap.Float32
	Any      = zap.Any
	Stringer = zap.Stringer
)

func ErrorField(err error) Field {
	return zap.Error(err)
}

func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}
