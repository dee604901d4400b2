// Package scope implements the variable-scoping engine used when evaluating
// declarative build-configuration manifests: named bindings resolved through
// nested lexical contexts, collision-checked merging of sub-evaluation
// results, unused-binding diagnostics, and capture of lexical environments
// as flattened closures for reusable templates.
//
// # Model
//
// A [Scope] owns a local store of name→[Binding] entries and holds at most
// one non-owning reference to a parent scope. The parent relation forms a
// strict tree, so lookups always terminate. Each scope is tagged with a
// [Kind]:
//
//   - [KindMutable]: an ordinary block scope
//   - [KindBoundary]: a read-only boundary; its bindings (and everything
//     above it) are visible to descendants for reading but never for
//     mutable access
//
// Values and origins are opaque to this package. A [Value] only needs
// value-equality and a type tag; an [Origin] is a blame token carried into
// diagnostics and never interpreted.
//
// # Lifecycle
//
// The evaluator creates a scope on entering a block, parents it to the
// enclosing scope, reads and writes bindings while the block evaluates,
// folds results into outer scopes with [Scope.NonRecursiveMergeTo], captures
// template-definition environments with [Scope.MakeClosure], and finally
// calls [Scope.CheckForUnusedVars] on block exit. Once that check passes the
// scope is closed and must not be mutated again.
//
// The caller is responsible for keeping every ancestor alive for as long as
// any descendant — including closures capturing it — may still perform
// lookups. Execution is single-threaded; no locking is performed.
package scope
