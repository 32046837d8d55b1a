package builtup

import (
	"os"
	"sync"

	"github.com/wgdzlh/builtup/log"
	"github.com/wgdzlh/builtup/utils"

	"github.com/airbusgeo/godal"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var registerOnce sync.Once

func registerDrivers() {
	registerOnce.Do(godal.RegisterAll)
}

// 已打开的多波段输入影像及其地理参考信息
type Scene struct {
	Path         string
	Width        int
	Height       int
	Count        int
	DataType     godal.DataType
	BlockHeight  int
	GeoTransform [6]float64
	HasTransform bool
	Projection   string

	ds     *godal.Dataset
	bands  [5]godal.Band
	nodata [5]float64
	hasNd  [5]bool
}

// 打开影像并校验波段数与波段尺寸
func OpenScene(path string, sel BandSelection) (s *Scene, err error) {
	registerDrivers()
	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		log.Error("Scene:open tif failed", zap.String("path", path), zap.Error(err))
		err = eris.Wrapf(ErrOpenRaster, "open %s", path)
		return
	}
	defer func() {
		if err != nil {
			ds.Close()
		}
	}()
	st := ds.Structure()
	if err = sel.Validate(st.NBands); err != nil {
		log.Error("Scene:tif bands not enough", zap.String("path", path), zap.Int("bands", st.NBands))
		return
	}
	if st.SizeX <= 0 || st.SizeY <= 0 {
		err = eris.Wrapf(ErrEmptyRaster, "%s is %dx%d", path, st.SizeX, st.SizeY)
		return
	}
	s = &Scene{
		Path:       path,
		Width:      st.SizeX,
		Height:     st.SizeY,
		Count:      st.NBands,
		DataType:   st.DataType,
		Projection: ds.Projection(),
		ds:         ds,
	}
	if gt, e := ds.GeoTransform(); e == nil {
		s.GeoTransform = gt
		s.HasTransform = true
	} else {
		log.Warn("Scene:tif has no geo transform", zap.String("path", path), zap.Error(e))
	}
	tifBands := ds.Bands()
	for k, idx := range sel.indices() {
		band := tifBands[idx-1]
		bs := band.Structure()
		if bs.SizeX != s.Width || bs.SizeY != s.Height {
			log.Error("Scene:tif band shape mismatch", zap.String("band", bandNames[k]), zap.Int("width", bs.SizeX), zap.Int("height", bs.SizeY))
			err = eris.Wrapf(ErrBandShape, "%s band %d is %dx%d, raster is %dx%d", bandNames[k], idx, bs.SizeX, bs.SizeY, s.Width, s.Height)
			return
		}
		if bs.BlockSizeY > s.BlockHeight {
			s.BlockHeight = bs.BlockSizeY
		}
		s.bands[k] = band
		s.nodata[k], s.hasNd[k] = band.NoData()
	}
	log.Info("Scene:opened tif", zap.String("path", path), zap.Int("bands", s.Count), zap.String("dt", s.DataType.String()),
		zap.Int("width", s.Width), zap.Int("height", s.Height))
	return
}

// 块行数取不小于rows的块高整数倍
func (s *Scene) blockRows(rows int) int {
	if s.BlockHeight > 1 && rows%s.BlockHeight != 0 {
		rows = (rows/s.BlockHeight + 1) * s.BlockHeight
	}
	return min(rows, s.Height)
}

// 读取[y0, y0+rows)行的五个波段，输入无值样本替换为NaN
func (s *Scene) ReadRows(y0, rows int) (b *Bands, err error) {
	b = NewBands(s.Width, rows)
	for k, buf := range b.slices() {
		if err = s.bands[k].Read(0, y0, buf, s.Width, rows); err != nil {
			log.Error("Scene:read tif band failed", zap.String("band", bandNames[k]), zap.Int("row", y0), zap.Error(err))
			err = eris.Wrapf(ErrReadRaster, "read %s band of %s at row %d", bandNames[k], s.Path, y0)
			return
		}
		if s.hasNd[k] {
			nd := s.nodata[k]
			for i, v := range buf {
				if v == nd {
					buf[i] = nan
				}
			}
		}
	}
	return
}

func (s *Scene) Close() {
	if s.ds != nil {
		if err := s.ds.Close(); err != nil {
			log.Warn("Scene:close tif failed", zap.String("path", s.Path), zap.Error(err))
		}
		s.ds = nil
	}
}

// 单波段Float64输出影像，先写入同目录临时文件，完成后改名
type outputRaster struct {
	path string
	tmp  string
	ds   *godal.Dataset
	band godal.Band
}

func createOutput(path string, s *Scene, nodata float64) (o *outputRaster, err error) {
	registerDrivers()
	o = &outputRaster{path: path, tmp: utils.GetTmpSibling(path)}
	o.ds, err = godal.Create(godal.GTiff, o.tmp, 1, godal.Float64, s.Width, s.Height, godal.CreationOption(outputCreateOpts...))
	if err != nil {
		log.Error("Output:create tif failed", zap.String("path", o.tmp), zap.Error(err))
		err = eris.Wrapf(ErrCreateRaster, "create %s", path)
		os.Remove(o.tmp)
		o = nil
		return
	}
	defer func() {
		if err != nil {
			o.abort()
			o = nil
		}
	}()
	if s.HasTransform {
		if err = o.ds.SetGeoTransform(s.GeoTransform); err != nil {
			log.Error("Output:set geo transform failed", zap.Error(err))
			err = eris.Wrapf(ErrCreateRaster, "set geo transform of %s", path)
			return
		}
	}
	if s.Projection != "" {
		if err = o.ds.SetProjection(s.Projection); err != nil {
			log.Error("Output:set projection failed", zap.Error(err))
			err = eris.Wrapf(ErrCreateRaster, "set projection of %s", path)
			return
		}
	}
	o.band = o.ds.Bands()[0]
	if err = o.band.SetNoData(nodata); err != nil {
		log.Error("Output:set nodata failed", zap.Float64("nodata", nodata), zap.Error(err))
		err = eris.Wrapf(ErrCreateRaster, "set nodata of %s", path)
	}
	return
}

func (o *outputRaster) writeRows(y0, rows, width int, buf []float64) (err error) {
	if err = o.band.Write(0, y0, buf, width, rows); err != nil {
		log.Error("Output:write tif rows failed", zap.Int("row", y0), zap.Error(err))
		err = eris.Wrapf(ErrWriteRaster, "write %s at row %d", o.path, y0)
	}
	return
}

// 关闭并改名为目标文件，失败时删除临时文件
func (o *outputRaster) commit() (err error) {
	ds := o.ds
	o.ds = nil
	if err = ds.Close(); err != nil {
		log.Error("Output:flush tif failed", zap.String("path", o.tmp), zap.Error(err))
		os.Remove(o.tmp)
		return eris.Wrapf(ErrWriteRaster, "flush %s", o.path)
	}
	if err = os.Rename(o.tmp, o.path); err != nil {
		log.Error("Output:rename tif failed", zap.String("from", o.tmp), zap.String("to", o.path), zap.Error(err))
		os.Remove(o.tmp)
		return eris.Wrapf(ErrWriteRaster, "move output to %s", o.path)
	}
	return
}

func (o *outputRaster) abort() {
	if o.ds != nil {
		o.ds.Close()
		o.ds = nil
	}
	os.Remove(o.tmp)
}
