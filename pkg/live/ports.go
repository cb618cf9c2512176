package live

import (
	"fmt"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ListPorts returns the names of the available input and output ports
func ListPorts() (ins, outs []string) {
	for _, in := range midi.GetInPorts() {
		ins = append(ins, in.String())
	}
	for _, out := range midi.GetOutPorts() {
		outs = append(outs, out.String())
	}
	return ins, outs
}

// FindPorts looks up an input and an output by exact name, falling back
// to a case-insensitive substring match
func FindPorts(inName, outName string) (drivers.In, drivers.Out, error) {
	ins := midi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	i, ok := matchPort(names, inName)
	if !ok {
		return nil, nil, notFound("input", inName, names)
	}

	outs := midi.GetOutPorts()
	names = make([]string, len(outs))
	for j, out := range outs {
		names[j] = out.String()
	}
	j, ok := matchPort(names, outName)
	if !ok {
		return nil, nil, notFound("output", outName, names)
	}

	return ins[i], outs[j], nil
}

func matchPort(names []string, want string) (int, bool) {
	if want == "" {
		return 0, false
	}
	for i, name := range names {
		if name == want {
			return i, true
		}
	}
	want = strings.ToLower(want)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), want) {
			return i, true
		}
	}
	return 0, false
}

func notFound(kind, name string, available []string) error {
	return fault.New(fmt.Sprintf("MIDI %s %q not found", kind, name),
		fmsg.WithDesc(fmt.Sprintf("MIDI %s %q not found", kind, name),
			fmt.Sprintf("No MIDI %s matches %q. Available: %s", kind, name, strings.Join(available, ", "))),
		ftag.With(ftag.NotFound))
}
