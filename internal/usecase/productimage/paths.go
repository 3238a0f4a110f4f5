package productimage

import (
	"net/url"
	"path"
	"strings"
)

// VariantPath maps "dir/name.ext" to "dir/name_<variant>.webp".
func VariantPath(originalPath, variantName string) string {
	ext := path.Ext(originalPath)
	base := strings.TrimSuffix(originalPath, ext)
	return base + "_" + variantName + ".webp"
}

// storagePathFromURL recovers the object key from a public URL of the form
// .../<bucket>/<key>. It returns "" when the bucket is not part of the path.
func storagePathFromURL(rawURL, bucket string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	marker := "/" + bucket + "/"
	p := u.Path
	idx := strings.Index(p, marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimPrefix(p[idx+len(marker):], "/")
}
