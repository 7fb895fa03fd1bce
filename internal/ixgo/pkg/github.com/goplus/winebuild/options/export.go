// export by github.com/goplus/ixgo/cmd/qexp

package options

import (
	q "github.com/goplus/winebuild/options"

	"go/constant"
	"reflect"

	"github.com/goplus/ixgo"
)

func init() {
	ixgo.RegisterPackage(&ixgo.Package{
		Name: "options",
		Path: "github.com/goplus/winebuild/options",
		Deps: map[string]string{
			"github.com/qiniu/x/gsh": "gsh",
			"slices":                 "slices",
			"sort":                   "sort",
			"strings":                "strings",
		},
		Interfaces: map[string]reflect.Type{},
		NamedTypes: map[string]reflect.Type{
			"Hook":     reflect.TypeOf((*q.Hook)(nil)).Elem(),
			"Options":  reflect.TypeOf((*q.Options)(nil)).Elem(),
			"OptionsF": reflect.TypeOf((*q.OptionsF)(nil)).Elem(),
		},
		AliasTypes: map[string]reflect.Type{},
		Vars:       map[string]reflect.Value{},
		Funcs: map[string]reflect.Value{
			"Gopt_OptionsF_Main": reflect.ValueOf(q.Gopt_OptionsF_Main),
			"Merge":              reflect.ValueOf(q.Merge),
			"New":                reflect.ValueOf(q.New),
		},
		TypedConsts: map[string]ixgo.TypedConst{},
		UntypedConsts: map[string]ixgo.UntypedConst{
			"CArgs":       {Typ: "untyped string", Value: constant.MakeString(string(q.CArgs))},
			"CFLAGS":      {Typ: "untyped string", Value: constant.MakeString(string(q.CFLAGS))},
			"CLinkArgs":   {Typ: "untyped string", Value: constant.MakeString(string(q.CLinkArgs))},
			"CPPFLAGS":    {Typ: "untyped string", Value: constant.MakeString(string(q.CPPFLAGS))},
			"CppArgs":     {Typ: "untyped string", Value: constant.MakeString(string(q.CppArgs))},
			"CppLinkArgs": {Typ: "untyped string", Value: constant.MakeString(string(q.CppLinkArgs))},
			"GopPackage":  {Typ: "untyped bool", Value: constant.MakeBool(bool(q.GopPackage))},
			"LDFLAGS":     {Typ: "untyped string", Value: constant.MakeString(string(q.LDFLAGS))},
		},
	})
}
