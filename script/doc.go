// Package script executes declarative scope manifests against the
// [github.com/ardnew/benv/scope] engine.
//
// A manifest is a YAML document declaring a tree of scopes with initial
// bindings followed by an ordered list of steps: set, get, merge, closure,
// mark, and check. It is the stand-in for a full configuration-language
// evaluator: the engine only ever sees opaque values and blame tokens, and
// the manifest drives the same operation sequences a real evaluator would.
//
// Binding values are expr-lang expressions. The environment visible to an
// expression is the binding set reachable from the scope being written,
// nearest level shadowing farther ones, plus a small set of builtins
// (platform info and PATH-list helpers). Every identifier an expression
// references is resolved through the scope chain with usage marking, so
// unused-binding diagnostics account for reads made inside expressions.
//
// Example manifest:
//
//	scopes:
//	  - name: root
//	    boundary: true
//	    bind:
//	      cflags: '"-O2"'
//	  - name: debug
//	    parent: root
//	    bind:
//	      cflags: 'cflags + " -g"'
//	steps:
//	  - closure: {of: debug, as: debug_env}
//	  - merge: {from: debug, into: root, clobber: true, desc: "debug overlay"}
//	  - check: {scope: debug}
package script
