// Package resolver turns an audiobook file into an ordered chapter list.
//
// Four strategies share one contract: metadata reads the container's embedded
// chapter table (falling back to silence detection when it is empty), silence
// splits at the midpoints of detected quiet spans, speech transcribes short
// clips on a fixed stride and looks for spoken chapter announcements, and
// json takes explicit boundaries from a user-supplied file. Auto-detecting
// strategies tile the whole file and fold a short opening-credits segment
// into chapter 1; user-supplied lists are taken verbatim.
package resolver
