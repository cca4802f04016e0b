package layout

import (
	"math"
	"sort"

	"tableflip.dev/codecanvas/pkg/manifest"
)

// Geometry in world units.
const (
	TileWidth  = 320.0
	TileHeight = 200.0
	Gap        = 24.0

	FolderPadding = 24.0
	FolderHeader  = 40.0

	FolderWrapWidth = 1800.0
	RootWrapWidth   = 4200.0
	FlatRowWidth    = 4200.0

	MinTileWidth  = 120.0
	MaxTileWidth  = 640.0
	MinTileHeight = 80.0
	MaxTileHeight = 420.0
)

// Root-level loose files in treemap-folders have no folder total to compare
// against, so they are normalized against these.
const (
	RootBytesNorm = 64 * 1024
	RootLinesNorm = 1500
)

type size struct {
	w, h float64
}

type point struct {
	x, y float64
}

// Compute lays out entries. An empty entry set yields an empty Result.
func Compute(entries []manifest.Entry, mode Mode, metric Metric) Result {
	if len(entries) == 0 {
		return newResult(mode, metric, nil)
	}
	switch mode {
	case TreemapFlat:
		return newResult(mode, metric, flat(entries, metric))
	case TreemapFolders:
		p := newPacker(entries, folderTreemapTile(metric))
		return newResult(mode, metric, p.run())
	default:
		p := newPacker(entries, fixedTile)
		return newResult(Hierarchical, metric, p.run())
	}
}

// tileFunc sizes one file tile. folder is the folder the file lives in; for
// root-level files it is the trie root.
type tileFunc func(e manifest.Entry, folder *manifest.Folder, p *packer) size

func fixedTile(manifest.Entry, *manifest.Folder, *packer) size {
	return size{TileWidth, TileHeight}
}

func folderTreemapTile(metric Metric) tileFunc {
	return func(e manifest.Entry, folder *manifest.Folder, p *packer) size {
		var total float64
		if folder.Path == "" {
			total = RootBytesNorm
			if metric == Lines {
				total = RootLinesNorm
			}
		} else {
			total = float64(p.fileTotal(folder, metric))
		}
		return scaledTile(float64(metric.Value(e)) / total)
	}
}

// scaledTile returns a tile whose area is proportional to sqrt(share),
// keeping the MaxTileWidth:MaxTileHeight aspect before clamping.
func scaledTile(share float64) size {
	if share <= 0 {
		share = 0
	}
	f := math.Sqrt(share)
	s := math.Sqrt(f)
	return size{
		w: clamp(MaxTileWidth*s, MinTileWidth, MaxTileWidth),
		h: clamp(MaxTileHeight*s, MinTileHeight, MaxTileHeight),
	}
}

// shelf places items left to right, wrapping once a row would pass wrap.
// It returns offsets relative to the origin and the occupied extent.
func shelf(sizes []size, wrap float64) ([]point, size) {
	pts := make([]point, len(sizes))
	var x, y, rowH, maxW float64
	for i, s := range sizes {
		if x > 0 && x+s.w > wrap {
			x = 0
			y += rowH + Gap
			rowH = 0
		}
		pts[i] = point{x, y}
		maxW = maxf(maxW, x+s.w)
		rowH = maxf(rowH, s.h)
		x += s.w + Gap
	}
	return pts, size{maxW, y + rowH}
}

type item struct {
	folder *manifest.Folder
	file   string
	size   size
}

// packer is the recursive shelf packer shared by Hierarchical and
// TreemapFolders. measure fills sizes without emitting; place emits rects
// using the cached sizes.
type packer struct {
	entries map[string]manifest.Entry
	tile    tileFunc
	root    *manifest.Folder

	sizes  map[string]size
	totals map[string]int64
	out    []Rect
}

func newPacker(entries []manifest.Entry, tile tileFunc) *packer {
	byPath := make(map[string]manifest.Entry, len(entries))
	for _, e := range entries {
		byPath[e.Path] = e
	}
	return &packer{
		entries: byPath,
		tile:    tile,
		root:    manifest.BuildTree(entries),
		sizes:   make(map[string]size),
		totals:  make(map[string]int64),
	}
}

func (p *packer) run() []Rect {
	p.measure(p.root)
	p.place(p.root, 0, 0)
	return p.out
}

// fileTotal sums the metric of the folder's direct files.
func (p *packer) fileTotal(f *manifest.Folder, metric Metric) int64 {
	if v, ok := p.totals[f.Path]; ok {
		return v
	}
	var total int64
	for _, path := range f.Files {
		total += metric.Value(p.entries[path])
	}
	if total <= 0 {
		total = 1
	}
	p.totals[f.Path] = total
	return total
}

// items lists a folder's children, folders before files, each group in
// manifest order.
func (p *packer) items(f *manifest.Folder) []item {
	list := make([]item, 0, len(f.Folders)+len(f.Files))
	for _, child := range f.Folders {
		list = append(list, item{folder: child, size: p.measure(child)})
	}
	for _, path := range f.Files {
		list = append(list, item{file: path, size: p.tile(p.entries[path], f, p)})
	}
	return list
}

func wrapFor(f *manifest.Folder) float64 {
	if f.Path == "" {
		return RootWrapWidth
	}
	return FolderWrapWidth
}

func (p *packer) measure(f *manifest.Folder) size {
	if s, ok := p.sizes[f.Path]; ok {
		return s
	}
	var s size
	switch {
	case f.Path != "" && f.Empty():
		s = size{TileWidth, TileHeight}
	default:
		_, extent := shelf(sizesOf(p.items(f)), wrapFor(f))
		if f.Path == "" {
			s = extent
		} else {
			s = size{extent.w + 2*FolderPadding, extent.h + FolderHeader + 2*FolderPadding}
		}
	}
	p.sizes[f.Path] = s
	return s
}

func (p *packer) place(f *manifest.Folder, x, y float64) {
	if f.Path != "" {
		if f.Empty() {
			return
		}
		s := p.sizes[f.Path]
		p.out = append(p.out, Rect{ID: f.Path, Kind: KindFolder, X: x, Y: y, W: s.w, H: s.h})
		x += FolderPadding
		y += FolderHeader + FolderPadding
	}
	items := p.items(f)
	offsets, _ := shelf(sizesOf(items), wrapFor(f))
	for i, it := range items {
		ox, oy := x+offsets[i].x, y+offsets[i].y
		if it.folder != nil {
			p.place(it.folder, ox, oy)
			continue
		}
		p.out = append(p.out, Rect{ID: it.file, Kind: KindFile, X: ox, Y: oy, W: it.size.w, H: it.size.h})
	}
}

func sizesOf(items []item) []size {
	out := make([]size, len(items))
	for i, it := range items {
		out[i] = it.size
	}
	return out
}

// flat is the treemap-flat layout: one tile per file, largest first.
func flat(entries []manifest.Entry, metric Metric) []Rect {
	var total float64
	files := make([]manifest.Entry, 0, len(entries))
	for _, e := range entries {
		if manifest.IsFolderMarker(e.Path) {
			continue
		}
		files = append(files, e)
		total += float64(metric.Value(e))
	}
	if len(files) == 0 {
		return nil
	}
	sizes := make([]size, len(files))
	order := make([]int, len(files))
	for i, e := range files {
		sizes[i] = scaledTile(float64(metric.Value(e)) / total)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := sizes[order[a]], sizes[order[b]]
		return sa.w*sa.h > sb.w*sb.h
	})
	sorted := make([]size, len(order))
	for i, idx := range order {
		sorted[i] = sizes[idx]
	}
	offsets, _ := shelf(sorted, FlatRowWidth)
	rects := make([]Rect, len(order))
	for i, idx := range order {
		rects[i] = Rect{
			ID:   files[idx].Path,
			Kind: KindFile,
			X:    offsets[i].x,
			Y:    offsets[i].y,
			W:    sorted[i].w,
			H:    sorted[i].h,
		}
	}
	return rects
}
