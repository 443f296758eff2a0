// Package papyrus generates the fragment script source for a quest.
//
// The script name embeds the quest editor id and its local identifier, so
// the source and the binding written into the package always agree. Output
// is plain UTF-8 text with LF line endings and is a pure function of the
// quest record.
package papyrus
