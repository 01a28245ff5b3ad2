package storage

import "errors"

var ErrBlockNotFound = errors.New("block with such cid is not found")
var ErrRootNotFound = errors.New("root is not stored yet")
var ErrStorageClosed = errors.New("storage is closed")
