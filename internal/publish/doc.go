// Package publish runs the draft publishing flow: obtain the article
// (generated from a topic or supplied), render it, produce a cover, upload
// it and create a draft on the platform. Every run leaves its intermediate
// files in an output directory.
package publish
