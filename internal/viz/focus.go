package viz

// Focus is the genus currently under the pointer. It is presentation state
// only: Enter on hover-enter, Leave on hover-leave. The zero value has no
// focus.
type Focus struct {
	genus string
	set   bool
}

// Enter focuses genus.
func (f *Focus) Enter(genus string) {
	f.genus = genus
	f.set = true
}

// Leave clears the focus.
func (f *Focus) Leave() {
	f.genus = ""
	f.set = false
}

// Genus returns the focused genus key.
func (f *Focus) Genus() (string, bool) {
	return f.genus, f.set
}

// Resolve looks the focused genus up in v. It reports false when nothing is
// focused or the genus is not part of the view.
func (f *Focus) Resolve(v View) (Item, bool) {
	if !f.set {
		return Item{}, false
	}
	return v.Find(f.genus)
}
