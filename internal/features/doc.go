// Package features turns the ratings, tags, and movies record sets into one
// tag profile per movie.
//
// Build runs the pooling pipeline in a fixed order: drop duplicate titles,
// inner-join ratings with movies and then with tags on (user, movie), pool the
// tags of every rating row, keep movies whose mean pooled-row rating clears
// the threshold, and pool again per movie. Sets are emitted in sorted order so
// identical input always yields identical profiles.
package features
