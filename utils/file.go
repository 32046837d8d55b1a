package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FILE_EXT_TIF = ".tif"

	tmpTifTemplate = ".%s.%s.tmp" + FILE_EXT_TIF
)

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 同目录下的临时文件路径，写入完成后再改名为目标文件
func GetTmpSibling(path string) string {
	return filepath.Join(filepath.Dir(path), fmt.Sprintf(tmpTifTemplate, GetFilenameWithoutExt(path), uuid.NewString()))
}

// 判断两个路径是否指向同一文件（文件不存在时按绝对路径比较）
func SameFile(a, b string) bool {
	sa, ea := os.Stat(a)
	sb, eb := os.Stat(b)
	if ea == nil && eb == nil {
		return os.SameFile(sa, sb)
	}
	absA, ea := filepath.Abs(a)
	absB, eb := filepath.Abs(b)
	return ea == nil && eb == nil && absA == absB
}

// 文件大小，不存在或出错时返回-1
func FileSize(path string) int64 {
	st, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return st.Size()
}
