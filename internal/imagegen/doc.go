// Package imagegen drives an asynchronous image generation service with a
// ModelScope-compatible API: submit a task, poll it until it settles, then
// download the first output image.
package imagegen
