// Package bruteforce provides a simple geographic index that answers kNN
// queries by scanning every point and ranking by great-circle distance. It
// defines the compact binary format shared by the index implementations for
// persistence in the index_storage table.
package bruteforce
