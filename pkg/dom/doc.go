// Package dom implements the live output tree the engine synchronizes.
//
// It is a small, single-goroutine document model: elements with namespaced
// attributes, reflected and expando properties, class and style helpers,
// form control state (value, checked, selected), event listeners with
// bubbling, and focus bookkeeping. HTML is parsed and serialized with
// golang.org/x/net/html so existing markup can be adopted and committed
// trees can be inspected as strings.
//
// Every mutation is reported to observers registered with Document.Observe,
// which lets callers count the native writes a commit performs.
package dom
