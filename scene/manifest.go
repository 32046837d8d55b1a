package scene

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/wgdzlh/builtup/log"
	"github.com/wgdzlh/builtup/utils"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type manifestFile struct {
	Products []Product `yaml:"products"`
}

// 本地产品清单目录，由YAML文件加载
type ManifestCatalog struct {
	products []Product
}

func NewManifestCatalog(ps ...Product) *ManifestCatalog {
	return &ManifestCatalog{products: ps}
}

// 加载清单，相对路径以清单所在目录为基准
func LoadManifest(path string) (c *ManifestCatalog, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		err = eris.Wrapf(err, "read manifest %s", path)
		return
	}
	var mf manifestFile
	if err = yaml.Unmarshal(raw, &mf); err != nil {
		log.Error("Manifest:parse failed", zap.String("path", path), zap.Error(err))
		err = eris.Wrapf(ErrManifest, "parse %s", path)
		return
	}
	base := filepath.Dir(path)
	for i := range mf.Products {
		p := &mf.Products[i]
		if p.ID == "" {
			err = eris.Wrapf(ErrManifest, "product %d in %s has no id", i, path)
			return
		}
		if p.Tile == "" {
			p.Tile = tileFromTitle(p.Title)
		}
		p.Tile = utils.NormalizeTile(p.Tile)
		if p.IngestionDate.IsZero() {
			p.IngestionDate = p.SensingDate
		}
		if p.Path != "" && !filepath.IsAbs(p.Path) {
			p.Path = filepath.Join(base, p.Path)
		}
		if p.Size == 0 && p.Path != "" {
			p.Size = max(utils.FileSize(p.Path), 0)
		}
	}
	log.Info("Manifest:loaded", zap.String("path", path), zap.Int("products", len(mf.Products)))
	c = &ManifestCatalog{products: mf.Products}
	return
}

// 从产品名中取分幅编号，如S2A_MSIL2A_..._T34TFL_... -> 34TFL
func tileFromTitle(title string) string {
	for _, part := range strings.Split(title, "_") {
		if len(part) == 6 && (part[0] == 'T' || part[0] == 't') && part[1] >= '0' && part[1] <= '9' {
			return part[1:]
		}
	}
	return ""
}

func (c *ManifestCatalog) Query(ctx context.Context, q Query) (ret []Product, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	tile := utils.NormalizeTile(q.Tile)
	for _, p := range c.products {
		if tile != "" && p.Tile != tile && !utils.TitleHasTile(p.Title, tile) {
			continue
		}
		if q.Platform != "" && !strings.EqualFold(p.Platform, q.Platform) {
			continue
		}
		if q.ProductType != "" && !strings.EqualFold(p.ProductType, q.ProductType) {
			continue
		}
		if p.CloudCover < q.CloudMin || p.CloudCover > q.CloudMax {
			continue
		}
		if !q.Start.IsZero() && p.SensingDate.Before(q.Start) {
			continue
		}
		if !q.End.IsZero() && p.SensingDate.After(q.End) {
			continue
		}
		ret = append(ret, p)
	}
	return
}
