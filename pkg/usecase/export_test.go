package usecase

var TruncateLines = truncateLines
