// Package io reads widget projects from disk and writes build output.
//
// # Project Layout
//
// A project is a widgets file plus a src directory next to it:
//
//	site.json          container widgets
//	src/logo.html      leaf widget "logo"
//	src/menu.html      leaf widget "menu"
//	src/style.css      user styles, concatenated in path order
//	src/head.html      optional extra <head> content
//
// # Widgets File
//
// The widgets file maps container names to definitions:
//
//	{
//	  "page": {
//	    "children": ["header", ["logo", "menu"], "body"],
//	    "right": [[["logo"], ["menu"]]],
//	    "below": [[[0], [1, 2]]]
//	  },
//	  "header": {"children": ["title"], "grow": 2}
//	}
//
// A nested array in children is shorthand for an anonymous row widget
// named "<parent>-row-<i>" whose children always sit side by side. A hint
// is a pair of child sets: every child in the first set comes before every
// child in the second. Children are referred to by name or by position, and
// a bare name or position stands for a set of one. The name "head" is
// reserved.
//
// # Leaf Files
//
// The first line of every leaf file is a size comment:
//
//	<!-- "width": [100, 300], "height": 80 -->
//
// width uses the range shorthand of [ranges.Range] (a number, a pair, or a
// list of pairs) and height is a constant in pixels. The rest of the file
// is the leaf's markup.
//
// [ranges.Range]: github.com/matzehuels/erwd/pkg/core/ranges.Range
package io
