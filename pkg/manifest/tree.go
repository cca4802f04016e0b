package manifest

import "strings"

// Folder is a node of the derived hierarchy. Child folders and files keep
// the order in which they first appear in the manifest.
type Folder struct {
	Path    string
	Name    string
	Folders []*Folder
	Files   []string

	index map[string]*Folder
}

// Empty reports whether the folder has neither files nor subfolders.
func (f *Folder) Empty() bool {
	return len(f.Folders) == 0 && len(f.Files) == 0
}

// Child returns the direct subfolder with the given segment name.
func (f *Folder) Child(name string) *Folder {
	if f.index == nil {
		return nil
	}
	return f.index[name]
}

// Walk visits f and its descendants depth first, parents before children.
func (f *Folder) Walk(fn func(*Folder)) {
	fn(f)
	for _, child := range f.Folders {
		child.Walk(fn)
	}
}

func (f *Folder) ensure(name string) *Folder {
	if f.index == nil {
		f.index = make(map[string]*Folder)
	}
	if child, ok := f.index[name]; ok {
		return child
	}
	p := name
	if f.Path != "" {
		p = f.Path + "/" + name
	}
	child := &Folder{Path: p, Name: name}
	f.index[name] = child
	f.Folders = append(f.Folders, child)
	return child
}

// BuildTree derives the folder trie from entry paths. The returned root has
// an empty path and is never rendered itself.
func BuildTree(entries []Entry) *Folder {
	root := &Folder{}
	for _, e := range entries {
		marker := IsFolderMarker(e.Path)
		segments := strings.Split(strings.TrimSuffix(e.Path, "/"), "/")
		node := root
		dirs := segments[:len(segments)-1]
		if marker {
			dirs = segments
		}
		for _, seg := range dirs {
			node = node.ensure(seg)
		}
		if !marker {
			node.Files = append(node.Files, e.Path)
		}
	}
	return root
}
