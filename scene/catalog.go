package scene

import (
	"context"
	"sort"
	"time"
)

// 目录中的一景产品
type Product struct {
	ID            string    `yaml:"id"`
	Title         string    `yaml:"title"`
	Tile          string    `yaml:"tile"`
	Platform      string    `yaml:"platform"`
	ProductType   string    `yaml:"product_type"`
	SensingDate   time.Time `yaml:"sensing_date"`
	IngestionDate time.Time `yaml:"ingestion_date"`
	CloudCover    float64   `yaml:"cloud_cover"`
	Size          int64     `yaml:"size"`
	Path          string    `yaml:"path"`
	Footprint     string    `yaml:"footprint"` // WKT, EPSG:4326
}

// 检索条件，云量范围为闭区间
type Query struct {
	Tile        string
	Platform    string
	ProductType string
	Start       time.Time
	End         time.Time
	CloudMin    float64
	CloudMax    float64
}

type Catalog interface {
	Query(ctx context.Context, q Query) ([]Product, error)
}

// 按云量升序、入库时间升序排列，相同时按ID保证稳定
func Rank(ps []Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.CloudCover != b.CloudCover {
			return a.CloudCover < b.CloudCover
		}
		if !a.IngestionDate.Equal(b.IngestionDate) {
			return a.IngestionDate.Before(b.IngestionDate)
		}
		return a.ID < b.ID
	})
}

// 去除小于minSize字节的产品
func FilterBySize(ps []Product, minSize int64) (kept []Product) {
	kept = ps[:0:0]
	for _, p := range ps {
		if p.Size >= minSize {
			kept = append(kept, p)
		}
	}
	return
}
