package value

// ClassMethodsCompact reports whether a class-method pair is stored as a
// single immutable cell, which is what allows an eternal pair to be shared
// across threads without copying. True on all supported platforms.
const ClassMethodsCompact = true

// Func is a reference to a named function entity. Funcs defined at the top
// level of a loaded unit are eternal; funcs created dynamically are not.
type Func struct {
	name    *String
	eternal bool
}

func NewFunc(name string, eternal bool) *Func {
	return &Func{name: Intern(name), eternal: eternal}
}

func (f *Func) Name() *String {
	return f.name
}

func (f *Func) Eternal() bool {
	return f.eternal
}

// Class is a reference to a class entity. Statically defined classes are
// eternal; classes created while a request runs are not and must never be
// pinned inside long-lived shared data.
type Class struct {
	name    *String
	eternal bool
}

func NewClass(name string, eternal bool) *Class {
	return &Class{name: Intern(name), eternal: eternal}
}

func (c *Class) Name() *String {
	return c.name
}

func (c *Class) Eternal() bool {
	return c.eternal
}

// ClassMethod pairs a class with one of its methods.
type ClassMethod struct {
	cls *Class
	fn  *Func
}

func NewClassMethod(cls *Class, fn *Func) *ClassMethod {
	return &ClassMethod{cls: cls, fn: fn}
}

func (cm *ClassMethod) Class() *Class {
	return cm.cls
}

func (cm *ClassMethod) Func() *Func {
	return cm.fn
}

// ToList lowers the pair into a counted two-element list of the class and
// method names, the representation used when the pair itself cannot be
// shared directly.
func (cm *ClassMethod) ToList() *Array {
	return NewListOf(
		NewStringValue(cm.cls.Name()),
		NewStringValue(cm.fn.Name()),
	)
}
