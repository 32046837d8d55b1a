package builtup

import "github.com/rotisserie/eris"

var (
	ErrBandCount      = eris.New("raster has too few bands")
	ErrBandShape      = eris.New("raster bands differ in shape")
	ErrBandSelection  = eris.New("invalid band selection")
	ErrInvalidOptions = eris.New("invalid engine options")
	ErrSamePath       = eris.New("output path equals input path")
	ErrOpenRaster     = eris.New("open raster failed")
	ErrReadRaster     = eris.New("read raster failed")
	ErrCreateRaster   = eris.New("create raster failed")
	ErrWriteRaster    = eris.New("write raster failed")
	ErrEmptyRaster    = eris.New("empty raster")
)
