package form

// Input is the template model for one rendered control.
type Input struct {
	Name        string
	Label       string
	Control     string // input, select or textarea
	Type        string // html input type when Control is input
	Value       string
	Placeholder string
	Options     []RenderedChoice
	Rows        int
	Step        string
}

type RenderedChoice struct {
	Value    string
	Label    string
	Selected bool
}

// Render maps a field and its current value to an input by kind.
func Render(fd Field, value any) Input {
	in := Input{Name: fd.Name, Label: fd.Label, Control: "input", Type: "text"}
	switch fd.Kind {
	case KindSelect:
		in.Control = "select"
		in.Value = stringValue(value)
		in.Placeholder = "Select " + fd.Label
		for _, c := range fd.Options {
			in.Options = append(in.Options, RenderedChoice{Value: c.Value, Label: c.Label, Selected: c.Value == in.Value})
		}
	case KindDateTime:
		in.Type = "datetime-local"
		in.Value = FormatDateTimeInput(value)
	case KindTextArea:
		in.Control = "textarea"
		in.Rows = 4
		in.Value = stringValue(value)
	case KindNumber:
		in.Value = stringValue(value)
		if fd.FreeText {
			in.Type = "text"
			break
		}
		in.Type = "number"
		in.Step = "any"
	default:
		in.Value = stringValue(value)
	}
	return in
}

type FieldView struct {
	Input Input
	Error string
}

// View is the template model for a whole form.
type View struct {
	Title  string
	Open   bool
	Create bool
	Notice string
	Action string
	Cancel string
	Hidden map[string]string
	Fields []FieldView
}

func (f *Form) View() View {
	v := View{Title: f.Title, Open: f.open, Create: f.create, Notice: f.notice}
	for _, fd := range f.fields {
		v.Fields = append(v.Fields, FieldView{Input: Render(fd, f.values[fd.Name]), Error: f.errors[fd.Name]})
	}
	return v
}
