// Package cover renders a title card image for an article with headless
// Chrome. It is the offline alternative to a generated cover.
package cover
