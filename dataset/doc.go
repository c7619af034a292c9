/*
Package dataset provides bagged datasets for multiple-instance learning.

A bagged dataset groups instances (rows of a dense feature matrix) into bags. Every
instance carries the index of the bag it belongs to, every bag a row of bag labels and
every instance a row of instance labels. Datasets are loaded from CSV text, where bag
labels are the means of instance labels, and saved and loaded in a binary memory dump
made of a text header followed by native-endian blocks.
*/
package dataset
