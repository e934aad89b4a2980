// SPDX-License-Identifier: MIT

// Package category defines the closed set of content categories shared by the
// admin console and the public player. Adding a category means adding it here;
// every surface that consults the set picks the change up from this package.
package category

// Category is a short code identifying a fixed content bucket.
type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// The six known programme slots. Order is the display order.
var all = []Category{
	{Code: "bsjkb", Label: "百岁健康班"},
	{Code: "ddry", Label: "大道仁医"},
	{Code: "fwdj", Label: "防危度健"},
	{Code: "gybnx", Label: "国医伴你行"},
	{Code: "msmk", Label: "美食每刻"},
	{Code: "qjqf", Label: "奇酒奇方"},
}

var byCode = func() map[string]Category {
	m := make(map[string]Category, len(all))
	for _, c := range all {
		m[c.Code] = c
	}
	return m
}()

// Valid reports whether code belongs to the known set.
func Valid(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Label returns the display label for code, or the code itself when unknown.
func Label(code string) string {
	if c, ok := byCode[code]; ok {
		return c.Label
	}
	return code
}

// All returns the category set in display order. The returned slice is a copy.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}
