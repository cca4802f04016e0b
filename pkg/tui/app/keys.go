package teaui

import "tableflip.dev/codecanvas/pkg/tui/components/help"

var keySections = []help.Section{
	{Title: "Canvas", Bindings: []help.Binding{
		{Keys: "m", Desc: "next layout mode"},
		{Keys: "b", Desc: "size tiles by bytes or lines"},
		{Keys: "h j k l / arrows", Desc: "pan"},
		{Keys: "+ -  / wheel", Desc: "zoom"},
		{Keys: "drag", Desc: "pan"},
		{Keys: "click", Desc: "select a file"},
		{Keys: "c", Desc: "fly to the selection"},
		{Keys: "0", Desc: "fit everything"},
	}},
	{Title: "Time", Bindings: []help.Binding{
		{Keys: "[ ]", Desc: "scrub back or forward"},
		{Keys: "{ }", Desc: "scrub in large steps"},
		{Keys: "L", Desc: "return to live"},
		{Keys: "f", Desc: "follow changes while live"},
		{Keys: "d", Desc: "download the shown instant"},
	}},
	{Title: "General", Bindings: []help.Binding{
		{Keys: "?", Desc: "toggle this help"},
		{Keys: "q / ctrl+c", Desc: "quit"},
	}},
}
