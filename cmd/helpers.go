package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/inovacc/addressbook/internal/core"
	"github.com/inovacc/addressbook/internal/model"
	"github.com/spf13/pflag"
)

// contactFlags binds the per-field flags shared by add and edit.
type contactFlags struct {
	first  string
	last   string
	street string
	city   string
	state  string
	zip    string
	email  string
	phone  string
}

func (f *contactFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.first, "first", "", "First name")
	fs.StringVar(&f.last, "last", "", "Last name")
	fs.StringVar(&f.street, "street", "", "Street address")
	fs.StringVar(&f.city, "city", "", "City")
	fs.StringVar(&f.state, "state", "", "State")
	fs.StringVar(&f.zip, "zip", "", "Zip code")
	fs.StringVar(&f.email, "email", "", "Email address")
	fs.StringVar(&f.phone, "phone", "", "Phone number")
}

// fields returns only the values given on the command line, so edit leaves
// the others untouched.
func (f *contactFlags) fields(fs *pflag.FlagSet) core.ContactFields {
	pick := func(name, v string) *string {
		if !fs.Changed(name) {
			return nil
		}

		v = strings.TrimSpace(v)

		return &v
	}

	return core.ContactFields{
		FirstName: pick("first", f.first),
		LastName:  pick("last", f.last),
		Street:    pick("street", f.street),
		City:      pick("city", f.city),
		State:     pick("state", f.state),
		Zip:       pick("zip", f.zip),
		Email:     pick("email", f.email),
		Phone:     pick("phone", f.phone),
	}
}

// parseID parses a contact ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("contact", "id", fmt.Sprintf("%q is not a contact ID", arg))
	}

	return id, nil
}

// promptConfirm asks the user for confirmation and returns true if they confirm
// prompt should include the question (e.g., "Delete this contact? [y/N]: ")
func promptConfirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprint(out, prompt)

	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.TrimSpace(response)

	return response == "y" || response == "Y"
}

// expandPath expands ~ to the user's home directory and returns an absolute path
func expandPath(path string) (string, error) {
	if len(path) == 0 {
		return "", fmt.Errorf("path is empty")
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}

		path = filepath.Join(home, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	return absPath, nil
}

// printEmptyResult prints a "no results" message with a hint
func printEmptyResult(w io.Writer, resourceType, hint string) {
	_, _ = fmt.Fprintf(w, "No %s found.\n", resourceType)

	if hint != "" {
		_, _ = fmt.Fprintf(w, "%s\n", hint)
	}
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(r[:maxLen])
	}

	return string(r[:maxLen-3]) + "..."
}

// boxWidth is the standard width for info boxes
const boxWidth = 64

func centerString(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}

	padding := (width - n) / 2

	return fmt.Sprintf("%*s%s%*s", padding, "", s, width-n-padding, "")
}

// printInfoBox prints a box with a title and label/value lines in order.
// Empty values are skipped.
func printInfoBox(w io.Writer, title string, lines [][2]string) {
	_, _ = fmt.Fprintln(w, "╔"+strings.Repeat("═", boxWidth-2)+"╗")
	_, _ = fmt.Fprintf(w, "║%s║\n", centerString(title, boxWidth-2))
	_, _ = fmt.Fprintln(w, "╠"+strings.Repeat("═", boxWidth-2)+"╣")

	for _, l := range lines {
		if l[1] == "" {
			continue
		}

		content := truncateString(fmt.Sprintf("  %s: %s", l[0], l[1]), boxWidth-2)
		padding := boxWidth - 2 - len([]rune(content))

		_, _ = fmt.Fprintf(w, "║%s%*s║\n", content, padding, "")
	}

	_, _ = fmt.Fprintln(w, "╚"+strings.Repeat("═", boxWidth-2)+"╝")
}

func printContact(w io.Writer, title string, e *model.Entry) {
	addr := strings.TrimSpace(e.Address.String())
	if addr == "," {
		addr = ""
	}

	printInfoBox(w, title, [][2]string{
		{"ID", strconv.FormatInt(e.ID, 10)},
		{"Name", e.Name()},
		{"Address", addr},
		{"Email", e.Email},
		{"Phone", e.Phone},
	})
}
