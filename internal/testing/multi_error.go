package testing

import "strings"

// MultiError collects every failed check of a file.
type MultiError []error

func (m MultiError) Error() string {
	messages := make([]string, 0, len(m))
	for _, err := range m {
		if err != nil {
			messages = append(messages, "- "+err.Error())
		}
	}
	if len(messages) == 0 {
		return ""
	}
	return "file checks failed:\n" + strings.Join(messages, "\n")
}

// AppendErr appends err to m if err is not nil.
func AppendErr(m *MultiError, err error) {
	if err != nil {
		*m = append(*m, err)
	}
}
