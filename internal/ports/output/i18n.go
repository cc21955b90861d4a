package output

// T is the translation port the presentation layer renders every user-facing
// message through. Keys are message ids ("join.saved", "err.sin_sesion");
// unknown keys come back verbatim so a missing translation never hides state.
type T interface {
	// T renders the message for key in the given locale, falling back to the
	// default locale. data fills template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
