// Package tags reads container metadata from audiobook files and derives
// display titles for untagged inputs. MP3 inputs additionally get an exact
// frame-walked duration measurement.
package tags
