package bound

// WellKnown holds the runtime symbols lowering rewrites into.
type WellKnown struct {
	// ObjectEquals is `(object, object) -> bool`, used by literal patterns.
	ObjectEquals *Function
	// Format is `(string, object[]) -> string` over a `{0}`-style format string.
	Format *Function
	// ToString is `(object) -> string`.
	ToString *Function
	// BoolNot is the `!` operator on bool.
	BoolNot *Function
}
