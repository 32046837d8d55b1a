package builtup

// 将index有效且大于threshold的像元在target中置为无值，返回新增的掩膜像元数
func MaskAbove(target, index []float64, threshold, nodata float64) (masked int) {
	for i, v := range index {
		if isNoData(v, nodata) || !(v > threshold) {
			continue
		}
		if !isNoData(target[i], nodata) {
			masked++
		}
		target[i] = nodata
	}
	return
}

func hasInputNoData(b *Bands, i int) bool {
	for _, s := range b.slices() {
		if !finite(s[i]) {
			return true
		}
	}
	return false
}

// 计算一个行块的建成区分类结果：先植被掩膜，再在其结果上做水体掩膜
func Classify(b *Bands, opts Options) (out []float64, c Counts) {
	nd := opts.NoData
	out = BuiltUpIndex(b, opts.Formula, nd)
	for i := range out {
		if hasInputNoData(b, i) {
			out[i] = nd
			c.InputNoData++
		} else if isNoData(out[i], nd) {
			c.Degenerate++
		}
	}
	// 输入无值像元的指数同样为无值，不参与掩膜
	c.Vegetation = MaskAbove(out, VegetationIndex(b, nd), opts.VegetationThreshold, nd)
	c.Water = MaskAbove(out, WaterIndex(b, nd), opts.WaterThreshold, nd)
	c.Valid = len(out) - c.InputNoData - c.Degenerate - c.Vegetation - c.Water
	return
}
