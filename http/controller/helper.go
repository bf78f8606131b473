package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/utils"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		utils.JSON400(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func parseQueryID(val string) (uint, error) {
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
