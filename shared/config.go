package shared

// Config controls which bound entity references may cross into shared data
// unchanged. Both default to false: funcs are rejected and class-method
// pairs are lowered to name lists.
type Config struct {
	// ShareFuncs permits eternal bound functions to pass through conversion.
	ShareFuncs bool

	// ShareClassMethods permits class-method pairs whose class is eternal to
	// pass through conversion.
	ShareClassMethods bool
}
