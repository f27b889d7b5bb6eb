// Package movielens reads the ratings, tags, and movies record sets that feed
// the recommender.
//
// Files are MovieLens-style CSV exports with a header row. Columns are located
// by name, so column order is free and extra columns are ignored; a missing
// required column surfaces as a SchemaError before any row is parsed. Tables
// keep their header so in-memory inputs can be checked the same way.
package movielens
