package scene

import (
	"sync"

	"github.com/wgdzlh/builtup/log"

	"github.com/lukeroth/gdal"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

// 计算产品范围对研究区的覆盖率
type Footprints struct {
	ref     gdal.SpatialReference
	aoi     gdal.Geometry
	aoiArea float64
	lock    sync.Mutex
	logTag  string
}

func NewFootprints(aoiWkt string) (f *Footprints, err error) {
	f = &Footprints{logTag: "Footprints:"}
	f.ref = gdal.CreateSpatialReference("")
	if err = f.ref.FromEPSG(UNIVERSAL_SRID); err != nil {
		log.Error(f.logTag+"set ref srid failed", zap.Int("srid", UNIVERSAL_SRID), zap.Error(err))
		f.ref.Destroy()
		err = eris.Wrapf(ErrGdalRef, "epsg:%d", UNIVERSAL_SRID)
		f = nil
		return
	}
	// 固定为(经度,纬度)次序，与WKT中的坐标次序一致
	f.ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	if f.aoi, err = f.parseWKT(aoiWkt); err != nil {
		f.ref.Destroy()
		f = nil
		return
	}
	f.aoiArea = f.aoi.Area()
	if f.aoiArea <= 0 {
		f.Destroy()
		f = nil
		err = eris.Wrap(ErrInvalidWKT, "aoi has no area")
	}
	return
}

func (f *Footprints) parseWKT(wkt string) (ret gdal.Geometry, err error) {
	ret, err = gdal.CreateFromWKT(wkt, f.ref)
	if err != nil {
		log.Error(f.logTag+"parse wkt failed", zap.Error(err))
		err = eris.Wrapf(ErrInvalidWKT, "%.64s", wkt)
	}
	return
}

// 产品范围与研究区交集面积占研究区面积的比例
func (f *Footprints) Coverage(footprintWkt string) (ratio float64, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	fp, err := f.parseWKT(footprintWkt)
	if err != nil {
		return
	}
	inter := f.aoi.Intersection(fp)
	gc := []destroyable{fp, inter}
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	if inter.IsEmpty() {
		return
	}
	ratio = min(inter.Area()/f.aoiArea, FullCoverageRatio)
	log.Debug(f.logTag+"got coverage ratio", zap.Float64("ratio", ratio))
	return
}

func (f *Footprints) Destroy() {
	f.aoi.Destroy()
	f.ref.Destroy()
}
