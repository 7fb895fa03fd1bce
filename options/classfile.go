package options

import (
	"github.com/qiniu/x/gsh"
)

const GopPackage = true

// -----------------------------------------------------------------------------

// OptionsF is the classfile of an option script (*_opts.gox).
//
//	onProject (name, opts) => {
//		if name.hasPrefix("wine-") {
//			opts.appendFlags "CFLAGS", "-O2"
//		}
//	}
type OptionsF struct {
	gsh.App

	fOnProject Hook
}

func (p *OptionsF) app() *gsh.App {
	return &p.App
}

// OnProject event is called once for every project of the run, in the
// order the projects were created.
func (p *OptionsF) OnProject(f func(name string, opts *Options)) {
	p.fOnProject = f
}

// -----------------------------------------------------------------------------

// Gopt_OptionsF_Main is main entry of this classfile.
func Gopt_OptionsF_Main(this interface {
	app() *gsh.App
	MainEntry()
}) {
	this.MainEntry()
	gsh.InitApp(this.app())
}
