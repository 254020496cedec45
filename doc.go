// Package temple matches text against libraries of templates.
//
// An utterance is split into sentences.  A dictum pairs a pattern
// with a template, and the Serial driver in package 'core' tries
// each dictum against each sentence until one matches.  Failed
// matches can be rescued by spelling correction.
//
// Patterns are in package 'match', dicta and their libraries are in
// package 'dicta', and hosting (stdio, WebSockets, MQTT) is in
// package 'sio'.  The command-line tool is in 'cmd/temple'.
package temple
