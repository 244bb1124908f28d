package exec

import (
	"fmt"
	"regexp"
)

// Language is the closed set of supported runtimes. Adding one means adding
// a case to langSpec, which the compiler checks at every call site.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangCPP        Language = "cpp"
	LangJava       Language = "java"
	LangGo         Language = "go"
)

// ParseLanguage validates a client-supplied language name.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LangPython, LangJavaScript, LangCPP, LangJava, LangGo:
		return Language(s), nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// LanguageSpec describes how one runtime is invoked inside a workspace.
// Interpreted languages have no CompileCmd; compiled ones run CompileCmd
// once and then ExecCmd per test case.
type LanguageSpec struct {
	Name       Language
	FileName   string
	CompileCmd []string
	ExecCmd    []string
}

// Compiled reports whether the language has a compile phase.
func (s LanguageSpec) Compiled() bool { return len(s.CompileCmd) > 0 }

func langSpec(lang Language) (LanguageSpec, error) {
	switch lang {
	case LangPython:
		return LanguageSpec{
			Name:     lang,
			FileName: "main.py",
			ExecCmd:  []string{"python3", "main.py"},
		}, nil

	case LangJavaScript:
		return LanguageSpec{
			Name:     lang,
			FileName: "main.js",
			ExecCmd:  []string{"node", "main.js"},
		}, nil

	case LangCPP:
		return LanguageSpec{
			Name:       lang,
			FileName:   "main.cpp",
			CompileCmd: []string{"g++", "-O2", "-std=c++17", "main.cpp", "-o", "main"},
			ExecCmd:    []string{"./main"},
		}, nil

	case LangJava:
		return LanguageSpec{
			Name:       lang,
			FileName:   "Main.java",
			CompileCmd: []string{"javac", "Main.java"},
			ExecCmd:    []string{"java", "Main"},
		}, nil

	case LangGo:
		return LanguageSpec{
			Name:       lang,
			FileName:   "main.go",
			CompileCmd: []string{"go", "build", "-o", "prog", "main.go"},
			ExecCmd:    []string{"./prog"},
		}, nil

	default:
		return LanguageSpec{}, fmt.Errorf("unsupported language %q", lang)
	}
}

var javaMainClass = regexp.MustCompile(`\bpublic\s+class\s+Main\b`)

// validateSource rejects Java sources that do not declare the fixed entry
// class. javac fails on these with a filename mismatch error that reads as
// a toolchain problem, so the check happens before the compiler runs.
func validateSource(lang Language, source string) string {
	if lang == LangJava && !javaMainClass.MatchString(source) {
		return "source must declare 'public class Main'"
	}
	return ""
}
