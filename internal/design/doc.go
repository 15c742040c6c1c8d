// Package design assembles the dense model matrix from a model frame:
// treatment contrast coding for categorical columns, row-wise interaction
// expansion for two-block terms, assign bookkeeping from output columns
// back to terms, and coefficient naming.
package design
