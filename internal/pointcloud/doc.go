// Package pointcloud generates the synthetic datasets handed to clients.
package pointcloud
