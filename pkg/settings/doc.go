// Package settings models theme settings documents: the ordered section
// references a template or section group declares, the section definitions
// they point to, and the configurable options theme authors expose to the
// editor. Configurable options are detected once, while decoding, and carried
// as an explicit Option value so normalisation is a structural walk.
package settings
